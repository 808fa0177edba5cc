package render_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/msaflow/pkg/assign"
	"github.com/matzehuels/msaflow/pkg/render"
)

func ExampleToDOT() {
	s := &assign.Summary{
		Network:    "pair",
		Iterations: 1,
		Nodes:      []string{"A", "B"},
		Edges:      []assign.EdgeReport{{Name: "A-B", From: "A", To: "B", Cost: 3, Flow: 4}},
	}
	for _, line := range strings.Split(render.ToDOT(s, render.Options{}), "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "A" -> "B" [label="4.0", penwidth=8.00];
}
