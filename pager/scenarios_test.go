package pager

import (
	"errors"
	"path/filepath"
	"testing"

	"bptree/internal/testhelper"
)

// TestScenarios drives the engine from testdata/scenarios.yaml, the
// equivalent of tinySQL's query-fixture tests but over insert/search/delete
// rather than SQL statements. Each scenario runs against its own fresh tree.
func TestScenarios(t *testing.T) {
	scenarios, err := testhelper.LoadScenarios("scenarios.yaml")
	if err != nil {
		t.Fatalf("load scenarios: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no scenarios loaded")
	}

	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			dir := t.TempDir()
			tr, err := Open(Options{Path: filepath.Join(dir, "tree.bin")}, Uint16Codec{}, StringCodec{})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer tr.Close()

			for i, step := range sc.Steps {
				ok := step.ExpectOK == nil || *step.ExpectOK
				switch step.Op {
				case "insert":
					err := tr.Insert(step.Key, step.Value)
					if ok && err != nil {
						t.Fatalf("step %d: insert(%d): %v", i, step.Key, err)
					}
					if !ok && err == nil {
						t.Fatalf("step %d: insert(%d): expected failure, got none", i, step.Key)
					}
				case "search":
					v, err := tr.Search(step.Key)
					if !ok {
						if err == nil {
							t.Fatalf("step %d: search(%d): expected failure, got %q", i, step.Key, v)
						}
						continue
					}
					if err != nil {
						if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoRoot) {
							t.Fatalf("step %d: search(%d): %v", i, step.Key, err)
						}
						t.Fatalf("step %d: search(%d): %v", i, step.Key, err)
					}
					if v != step.Expect {
						t.Fatalf("step %d: search(%d) = %q, want %q", i, step.Key, v, step.Expect)
					}
				case "delete":
					err := tr.Delete(step.Key)
					if ok && err != nil {
						t.Fatalf("step %d: delete(%d): %v", i, step.Key, err)
					}
					if !ok && err == nil {
						t.Fatalf("step %d: delete(%d): expected failure, got none", i, step.Key)
					}
				default:
					t.Fatalf("step %d: unknown op %q", i, step.Op)
				}
			}
		})
	}
}
