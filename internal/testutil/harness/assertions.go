package harness

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/stretchr/testify/require"
)

// RequireDocument decodes the run's stdout as a JSON graph document.
func RequireDocument(t *testing.T, r *Result) *graphio.Document {
	t.Helper()
	require.NoError(t, r.Err, "run failed; logs:\n%s", r.LogOutput)

	var doc graphio.Document
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &doc), "stdout is not a graph document:\n%s", r.Stdout)
	return &doc
}

// NodeByID returns the exported node with the given id.
func NodeByID(t *testing.T, doc *graphio.Document, id int) graphio.NodeDoc {
	t.Helper()
	for _, n := range doc.Nodes {
		if n.ID == id {
			return n
		}
	}
	require.Failf(t, "node not found", "no node with id %d in document", id)
	return graphio.NodeDoc{}
}

// AssertLogged checks that a log line containing every fragment was written.
func AssertLogged(t *testing.T, r *Result, fragments ...string) {
	t.Helper()
	for line := range strings.SplitSeq(r.LogOutput, "\n") {
		matched := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	require.Failf(t, "log line not found", "no log line contains all of %q", fragments)
}
