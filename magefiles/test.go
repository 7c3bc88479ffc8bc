//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const postgresPkg = "/internal/postgres"

// Test groups test targets.
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Unit runs every package except the container-backed PostgreSQL tests.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unit []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && !strings.HasSuffix(pkg, postgresPkg) {
			unit = append(unit, pkg)
		}
	}
	if len(unit) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	return sh.RunV(binGo, append([]string{"test"}, unit...)...)
}

// Postgres runs the PostgreSQL backend tests against a testcontainers
// instance.
func (Test) Postgres() error {
	return sh.RunV(binGo, "test", "-v", "."+postgresPkg+"/...")
}

// Golden rewrites the golden shift plans from the current sequencer.
func (Test) Golden() error {
	return sh.RunV(binGo, "test", "./internal/position/", "-run", "Golden", "-update")
}
