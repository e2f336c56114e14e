// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/burge/burge/internal/behavior"
	"github.com/burge/burge/internal/document"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/scene"
)

const arenaYAML = `format: "1.0.0"
name: arena
elements:
  - name: physics
  - name: input
  - name: camera
    settings:
      pos: [0, 2]
      scale: 30
  - name: block
    settings:
      pos: [-10, -1]
      shape: [20, 1]
      repeat: 20
      sprite: 3
      tags: [level.floor]
  - name: block
    settings:
      pos: [4, 0]
      shape: [1, 1]
      sprite: 4
      solid: false
      tags: [level.crate]
  - name: block
    settings:
      pos: [6, 0]
      shape: [1, 1]
      sprite: 4
      solid: false
      tags: [level.crate]
  - name: body
    settings:
      phys:
        pos: [0, 4]
      sprite: 1
      tags: [level.player]
      controls: {}
  - name: particles
    settings:
      seed: 7
      count: 10
  - name: script
    settings:
      source: |
        local ticks = 0
        function update(dt)
          ticks = ticks + 1
          if ticks == 3 then
            burge.spawn("block", {pos = {0, 8}, solid = false, tags = {"level.spawned"}})
            for _, id in ipairs(burge.find_tags("level.crate")) do
              burge.delete(id)
            end
            burge.emit()
          end
        end
`

var _ = Describe("Scene documents", func() {
	var (
		ctx     context.Context
		dir     string
		manager *scene.Manager
		h       *host.Host
	)

	load := func(path string) *scene.Scene {
		doc, err := document.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		s, err := manager.CreateScene(doc.Name, doc.Documents())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	find := func(s *scene.Scene, pattern string) int {
		ids, err := s.Tags().Find(pattern)
		Expect(err).NotTo(HaveOccurred())
		return len(ids)
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "arena.yaml"), []byte(arenaYAML), 0o600)).To(Succeed())

		manager = scene.NewManager()
		behavior.Register(manager.Templates(), nil)
		load(filepath.Join(dir, "arena.yaml"))
		Expect(manager.SetScene("arena")).To(Succeed())

		h = host.New(manager)
		h.Init()
	})

	It("starts with every element tagged", func() {
		s, _, _ := manager.Current()
		Expect(find(s, "level.*")).To(Equal(4))
		Expect(find(s, "level.crate")).To(Equal(2))
	})

	It("applies script requests on the following frames", func() {
		for range 5 {
			Expect(h.Step(ctx, 1.0/60)).To(Succeed())
		}

		s, _, _ := manager.Current()
		Expect(find(s, "level.crate")).To(Equal(0))
		Expect(find(s, "level.spawned")).To(Equal(1))
	})

	It("walks the player when a key is held", func() {
		s, _, _ := manager.Current()
		Expect(h.KeyDown('D')).To(BeTrue())
		for range 30 {
			Expect(h.Step(ctx, 1.0/60)).To(Succeed())
		}
		Expect(h.KeyUp('D')).To(BeTrue())

		frame, err := h.Present(geom.Viewport{Width: 160, Height: 90})
		Expect(err).NotTo(HaveOccurred())
		Expect(frame.Sprites).NotTo(BeEmpty())
		Expect(find(s, "level.player")).To(Equal(1))
	})

	It("saves to a document that loads back into an equivalent scene", func() {
		for range 10 {
			Expect(h.Step(ctx, 1.0/60)).To(Succeed())
		}
		s, _, _ := manager.Current()

		saved, err := document.FromDocuments("arena-saved", s.Save())
		Expect(err).NotTo(HaveOccurred())
		data, err := saved.Marshal()
		Expect(err).NotTo(HaveOccurred())

		path := filepath.Join(dir, "arena-saved.yaml")
		Expect(os.WriteFile(path, data, 0o600)).To(Succeed())

		reloaded := load(path)
		Expect(reloaded.Len()).To(Equal(s.Len()))

		Expect(manager.SetScene("arena-saved")).To(Succeed())
		h.Init()
		Expect(h.Step(ctx, 1.0/60)).To(Succeed())
		Expect(find(reloaded, "level.spawned")).To(Equal(1))
	})
})
