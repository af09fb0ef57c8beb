// SPDX-License-Identifier: MIT

package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/lexnet/bfs"
	"github.com/katalvlaran/lexnet/core"
	"github.com/katalvlaran/lexnet/label"
)

// ExampleWalk walks a two-word recurrent lexicon; the word ends loop back to
// the root and are not visited twice.
func ExampleWalk() {
	n := core.New(label.NewTable("phones"), label.NewTable("words"), core.WithRecurrent())
	_ = n.InsertTokens([]string{"k", "a", "t"}, []string{"", "", "cat"})
	_ = n.InsertTokens([]string{"k", "a", "b"}, []string{"", "", "cab"})

	res, err := bfs.Walk(n)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Order, res.Depth)
	// Output:
	// [n0 n1 n2] [0 1 2]
}
