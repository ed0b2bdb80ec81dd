// Package harness runs end-to-end pipeline scenarios: YAML files that
// seed a synthetic in-memory warehouse, issue one request through the
// compile/execute/pivot pipeline, and pin the resulting table with
// inline expectations and golden files.
//
// Scenarios live in testdata/scenarios, one YAML file each; their
// golden tables live in testdata/golden under the scenario name.
package harness
