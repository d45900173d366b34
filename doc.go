// Package stateproof defines finite state machines as explicit graphs and
// derives an exhaustive test suite from them. The graph is the source of
// truth: every reachable path is enumerated, each path becomes a named test
// case whose expected transition log is encoded in the file, and
// regenerations preserve hand-written scaffolding by splitting every test
// into a regenerated region and a user-maintained region.
//
// Build a Graph with NewBuilder, drive it live with a Runtime, and derive
// test cases from it with Enumerate. ParseTestFile, PlanSync, and
// RenderSync reconcile enumerated cases against existing test source by
// path-hash identity.
package stateproof
