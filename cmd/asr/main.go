// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// ASR is a tool for the parsimony reconstruction
// of ancestral states of binary traits
// and the test of their co-occurrence on the branches of a tree.
package main

import (
	"github.com/js-arias/asr/cmd/asr/recon"
	"github.com/js-arias/asr/cmd/asr/sim"
	"github.com/js-arias/asr/cmd/asr/taxa"
	"github.com/js-arias/asr/cmd/asr/tree"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "asr <command> [<argument>...]",
	Short: "a tool for ancestral state reconstruction and trait co-occurrence",
}

func init() {
	app.Add(recon.Command)
	app.Add(sim.Command)
	app.Add(taxa.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
