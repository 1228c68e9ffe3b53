// Package testutil provides testing utilities for filestore backends.
//
// This package is intended for use in tests only.
//
// # Conformance Suite
//
// Every dfs.Client implementation runs the same behavioural checks:
//
//	func TestConformance(t *testing.T) {
//	    testutil.RunClientSuite(t, func(t *testing.T) dfs.Client {
//	        return memory.New()
//	    })
//	}
//
// # Random Content
//
//	rng := testutil.NewRNG(seed)
//	text := rng.Text(10, 80) // 10 lines of at most 80 characters
package testutil
