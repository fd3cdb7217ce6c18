package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF parses and verifies grammar.ebnf against golang.org/x/exp/ebnf:
// every nonterminal reachable from Program is defined, and every defined
// nonterminal is reachable (spec.md §4.5's grammar, kept here as a
// machine-checked artifact rather than prose alone).
func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
