// Package catalog serves the reference data that populates filter
// choices: locations, measurement units, indicators, and the derived
// units-for-indicators lookup.
//
// Everything here fails soft. These lookups feed optional UI
// affordances, not correctness-critical computation, so a failing
// query degrades to an empty collection instead of raising. The
// degradation is explicit: every lookup returns a Lookup[T] that says
// whether it took the Ok path or the Degraded path, and why.
//
// Results cache for a bounded interval (the reference tables change
// rarely). Caches serve read-only snapshots and may be refreshed by
// concurrent sessions at least once each; there is no single-flight
// coordination, two simultaneous misses both recompute and both write.
package catalog
