// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package integration_test

import (
	"context"
	"os/exec"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

var _ = Describe("filter command", func() {
	var ctx context.Context
	var dir string

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		writeFixture(dir, "sample.extxyz",
			"1\nenergy=-1.5 Properties=species:S:1:pos:R:3\nSi 0.0 0.0 0.0\n"+
				"1\nenergy=2.0 Properties=species:S:1:pos:R:3\nSi 0.0 0.0 0.0\n")
		writeFixture(dir, "gate.lua", `
function filter(record)
  return record.info.energy >= 0
end
`)
	})

	It("keeps only records passing the script's condition", func() {
		scriptPath := filepath.Join(dir, "gate.lua")
		dataPath := filepath.Join(dir, "sample.extxyz")

		cmd := exec.CommandContext(ctx, "go", "run", ".", "filter", dataPath, "--lua", scriptPath)
		cmd.Dir = "../../cmd/extxyzctl"

		output, err := cmd.CombinedOutput()
		Expect(err).NotTo(HaveOccurred(), "filter failed: %s", string(output))
		Expect(string(output)).To(ContainSubstring("kept 1 of 2 records"))
	})
})
