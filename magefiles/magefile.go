//go:build mage

// Package main provides build targets for ranks using Mage.
//
// Usage:
//
//	mage build            Compile the ranks binary to bin/
//	mage install          Install ranks to GOPATH/bin
//	mage test:all         Run every test (PostgreSQL tests need Docker)
//	mage test:unit        Run tests that need no container runtime
//	mage test:postgres    Run only the PostgreSQL backend tests
//	mage test:golden      Rewrite golden shift plans
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "ranks"
	binaryDir  = "bin"
	cmdDir     = "./cmd/ranks"
)

// Build compiles the ranks binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
