//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "lecteur"

// Default target to run when none is specified
var Default = Build

// Build compiles the lecteur binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/lecteur")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration runs the tests that talk to real services. They skip
// themselves unless the API keys are set.
func Integration() error {
	return sh.RunV("go", "test", "-count=1", "-run", "Integration", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and copies the binary to ~/go/bin
func Install() error {
	mg.Deps(Build)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	target := filepath.Join(home, "go", "bin", binary)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	fmt.Println("Installing to", target)
	return sh.Copy(target, binary)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm(binary)
}
