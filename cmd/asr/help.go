// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(projectsGuide)
	app.Add(taxaFilesGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
ASR requires a phylogenetic tree and a taxon lookup to reconstruct ancestral
states. To reduce the burden of keeping track of many files, a single project
file is used to hold the reference of all files required in the analysis.
This guide explains the structure of the file, but most of the time, the best
and most secure way to edit or view this file is by using asr commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# asr project files
	dataset	path
	taxa	taxa.tab
	trees	trees.tab

The valid file types are:

- Taxon lookup. Defined by the dataset keyword "taxa". This file contains the
  names of the taxa and the states of the traits in the form of a
  tab-delimited file. The recommended way to add a taxon lookup is by using
  the command 'asr taxa add'.
- Time-calibrated trees. Defined by the dataset keyword "trees". This file
  contains one or more trees in the form of a tab-delimited file. The
  recommended way to add a tree file is by using the command 'asr tree add'.
  Newick trees are added to this file with 'asr tree add --newick'.

Any other dataset keyword is an error.
	`,
}

var taxaFilesGuide = &command.Command{
	Usage: "taxa-files",
	Short: "about taxon lookup files",
	Long: `
In ASR, the states of the traits of each terminal taxon are stored in a
taxon lookup, a tab-delimited file in which the first row is a header, and
the columns are read in a fixed order:

	- the identifier of the taxon, as used in the terminals of the trees.
	- the scientific name of the taxon.
	- the common name of the taxon.
	- the state of the first trait (either 0 or 1).
	- the state of the second trait (optional, either 0 or 1).

The names of the trait columns in the header are used as the names of the
traits. Identifiers are compared ignoring case, and underscores are taken as
spaces.

Here is an example file:

	id	scientific	common	herbivory	tusks
	elephas_maximus	Elephas maximus	Asian elephant	1	1
	felis_catus	Felis catus	cat	0	0
	sus_scrofa	Sus scrofa	wild boar	0	1

If the lookup has a single trait, ancestral states can be reconstructed, but
the co-occurrence test requires two traits.

In an ASR project, the file that contains the taxon lookup is indicated with
the "taxa" keyword.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about tree files",
	Long: `
ASR stores phylogenetic trees as a tab-delimited file with time-calibrated
trees, with the following columns:

	-tree    for the name of the tree.
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the age of the node (in years).
	-taxon   the taxonomic name of the node.

Here is an example file:

	# time calibrated phylogenetic tree
	tree	node	parent	age	taxon
	dinosaurs	0	-1	235000000
	dinosaurs	1	0	230000000	Eoraptor lunensis
	dinosaurs	2	0	170000000
	dinosaurs	3	2	145000000	Ceratosaurus nasicornis
	dinosaurs	4	2	71000000	Carnotaurus sastrei

In an ASR project, the file that contains time-calibrated trees is indicated
with the "trees" keyword.

Trees in Newick (or parenthetical) format can be imported with the command
'asr tree add --newick <name>'. Branch lengths are optional, and are read in
million years. Here is an example file:

	((elephas_maximus:1,sus_scrofa:1):1,felis_catus:2);

Before any analysis, nodes with more than two descendants are resolved as a
sequence of nested nodes connected by zero-length branches, and nodes with a
single descendant are removed.
	`,
}
