// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa is a metapackage for commands
// that dealt with taxon lookups.
package taxa

import (
	"github.com/js-arias/asr/cmd/asr/taxa/add"
	"github.com/js-arias/asr/cmd/asr/taxa/list"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "taxa <command> [<argument>...]",
	Short: "commands for taxon lookups",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
}
