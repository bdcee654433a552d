// Package layout places family boxes on the social map.
//
// [Build] resolves every family for a year (see [family.Resolve]), sizes a box
// for each one and packs the boxes into three horizontal lanes by social
// class: Noble (Grandi), Grassi and Popolo.
//
// # Algorithm
//
// Within a lane, families sharing a visual group and raw anchor x form a
// zone. A zone is sorted by name and packed into columns of at most
// floor(laneHeight / 5.5) boxes, centred on the anchor and clamped to the
// lane bounds. Zones are then split at x = 110 into a Ghibelline side and a
// Guelf side, and a bounded relaxation pushes overlapping neighbours apart
// and clamps the outermost zones to the side bounds.
//
// The relaxation runs a fixed number of passes ([DefaultRelaxPasses]). It is
// a local search: for pathological inputs (dozens of very long names in one
// zone) some overlap can remain. [OverlapRatio] measures it.
//
// # Determinism
//
// Zone members are ordered by collated name then id, zones by group and
// anchor, and output nodes by id. Shuffling the input does not change the
// result.
package layout
