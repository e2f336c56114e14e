// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

//go:build integration

package cli_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

const level = `format: "1.0.0"
name: level
elements:
  - name: physics
  - name: camera
  - name: block
    settings:
      pos: [-5, -2]
      shape: [10, 1]
  - name: body
    settings:
      phys:
        pos: [0, 2]
`

var _ = Describe("burge CLI", func() {
	var (
		ctx  context.Context
		path string
	)

	BeforeEach(func() {
		ctx = context.Background()
		path = filepath.Join(GinkgoT().TempDir(), "level.yaml")
		Expect(os.WriteFile(path, []byte(level), 0o600)).To(Succeed())
	})

	Describe("validate", func() {
		It("accepts a well-formed scene", func() {
			output, err := burge(ctx, "validate", path)
			Expect(err).NotTo(HaveOccurred(), output)
			Expect(output).To(ContainSubstring("ok (4 elements)"))
		})

		It("exits non-zero for a broken scene", func() {
			broken := filepath.Join(GinkgoT().TempDir(), "broken.yaml")
			Expect(os.WriteFile(broken, []byte("format: \"9.0.0\"\nelements: []\n"), 0o600)).To(Succeed())

			output, err := burge(ctx, "validate", broken)
			Expect(err).To(HaveOccurred())
			Expect(output).To(ContainSubstring("FORMAT_UNSUPPORTED"))
		})
	})

	Describe("run", func() {
		It("steps the requested number of frames", func() {
			output, err := burge(ctx, "run", path, "--frames", "10", "--step", "1ms", "--log-format", "text")
			Expect(err).NotTo(HaveOccurred(), output)
			Expect(output).To(ContainSubstring(`Ran 10 frames of scene "level"`))
			Expect(output).To(ContainSubstring("service=burge"))
		})

		It("picks up the default config file", func() {
			cfgDir := filepath.Join(env.home, "config", "burge")
			Expect(os.MkdirAll(cfgDir, 0o700)).To(Succeed())
			cfg := "scenes: [" + path + "]\nframes: 3\nstep: 1ms\n"
			Expect(os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o600)).To(Succeed())
			DeferCleanup(func() { _ = os.RemoveAll(cfgDir) })

			output, err := burge(ctx, "run")
			Expect(err).NotTo(HaveOccurred(), output)
			Expect(output).To(ContainSubstring("Ran 3 frames"))
		})
	})

	Describe("snapshot", func() {
		It("writes a PNG into the state directory", func() {
			output, err := burge(ctx, "snapshot", path, "--frames", "2")
			Expect(err).NotTo(HaveOccurred(), output)
			Expect(filepath.Join(env.home, "state", "burge", "level.png")).To(BeAnExistingFile())
		})
	})

	Describe("schema", func() {
		It("prints the scene schema", func() {
			output, err := burge(ctx, "schema")
			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(ContainSubstring("scene.schema.json"))
		})
	})
})
