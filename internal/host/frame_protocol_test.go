// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

//go:build integration

package host_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/burge/burge/internal/behavior"
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/scene"
)

var _ = Describe("Frame protocol", func() {
	var (
		ctx     context.Context
		manager *scene.Manager
		h       *host.Host
	)

	step := func(n int) {
		for range n {
			Expect(h.Step(ctx, 0.05)).To(Succeed())
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		manager = scene.NewManager()
		behavior.Register(manager.Templates(), nil)
	})

	Describe("a scene with a floor and a falling body", func() {
		BeforeEach(func() {
			_, err := manager.CreateScene("fall", []element.Document{
				element.NewDocument("physics", nil),
				element.NewDocument("block", map[string]any{
					"pos": []any{-10, -2}, "shape": []any{20, 1}, "tags": []any{"level.floor"},
				}),
				element.NewDocument("body", map[string]any{
					"phys": map[string]any{"pos": []any{-0.5, 3}},
					"tags": []any{"level.player"},
				}),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.SetScene("fall")).To(Succeed())
			h = host.New(manager)
			h.Init()
		})

		It("lets the body come to rest on the floor", func() {
			step(80)

			s, _, ok := manager.Current()
			Expect(ok).To(BeTrue())
			players, err := s.Tags().Find("level.player")
			Expect(err).NotTo(HaveOccurred())
			Expect(players).To(HaveLen(1))

			frame, err := h.Present(geom.Viewport{Width: 160, Height: 90})
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Number).To(BeEquivalentTo(80))
			Expect(frame.Sprites).To(HaveLen(2))
		})

		It("keeps the save documents loadable", func() {
			step(10)

			s, _, _ := manager.Current()
			docs := s.Save()
			Expect(docs).NotTo(BeEmpty())

			reloaded, err := manager.CreateScene("reloaded", docs)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Len()).To(Equal(s.Len()))
		})
	})

	Describe("a scene without a camera", func() {
		It("presents an identity projection", func() {
			_, err := manager.CreateScene("empty", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(manager.SetScene("empty")).To(Succeed())
			h = host.New(manager)
			h.Init()
			step(1)

			frame, err := h.Present(geom.Viewport{Width: 4, Height: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Clip).To(Equal(geom.Identity()))
			Expect(frame.Sprites).To(BeEmpty())
		})
	})

	Describe("switching scenes", func() {
		It("steps only the current scene", func() {
			for _, name := range []string{"a", "b"} {
				_, err := manager.CreateScene(name, []element.Document{
					element.NewDocument("particles", map[string]any{"seed": 1}),
				})
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(manager.SetScene("a")).To(Succeed())
			h = host.New(manager)
			h.Init()
			step(3)

			Expect(manager.SetScene("b")).To(Succeed())
			step(1)
			Expect(h.Frame()).To(BeEquivalentTo(4))

			Expect(manager.SetScene("missing")).NotTo(Succeed())
			Expect(h.Step(ctx, 0.05)).NotTo(Succeed())
		})
	})
})
