// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("convert command", func() {
	var ctx context.Context
	var dir string

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		writeFixture(dir, "traj-0.extxyz", "1\nProperties=species:S:1:pos:R:3\nSi 0.0 0.0 0.0\n")
		writeFixture(dir, "traj-1.extxyz", "1\nProperties=species:S:1:pos:R:3\nSi 1.0 1.0 1.0\n")
	})

	It("concatenates every matching file into one stream", func() {
		outPath := filepath.Join(dir, "combined.extxyz")

		cmd := exec.CommandContext(ctx, "go", "run", ".", "convert", dir,
			"--pattern", "traj-*.extxyz", "--out", outPath)
		cmd.Dir = "../../cmd/extxyzctl"

		output, err := cmd.CombinedOutput()
		Expect(err).NotTo(HaveOccurred(), "convert failed: %s", string(output))
		Expect(string(output)).To(ContainSubstring("wrote 2 records from 2 files"))

		data, err := os.ReadFile(outPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("Si 0.0 0.0 0.0"))
		Expect(string(data)).To(ContainSubstring("Si 1.0 1.0 1.0"))
	})
})

func writeFixture(dir, name, content string) {
	GinkgoHelper()
	Expect(os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)).To(Succeed())
}
