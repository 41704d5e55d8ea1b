// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Demo runs the CLI against live archives.
type Demo mg.Namespace

// Geo previews the samples of a GEO series.
func (Demo) Geo(gse string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch", "--source", "geo", "--id", gse)
}

// Sra previews the runs matching an SRA search term.
func (Demo) Sra(term string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch", "--source", "sra", "--id", term)
}

// Ena previews the read runs for an ENA accession.
func (Demo) Ena(acc string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch", "--source", "ena", "--id", acc)
}

// Merge links a GEO series to its SRA runs and writes linked.csv.
func (Demo) Merge(gse, term string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "fetch", "--source", "merge", "--geo", gse, "--sra", term, "--out", "linked.csv")
}
