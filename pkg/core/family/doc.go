// Package family models Florentine family records and resolves their
// time-varying political state.
//
// A [Family] carries up to two dated status entries and two dated faction
// entries, a sub-faction tag (White/Black, meaningful from 1300) and a static
// magnate flag. [Resolve] collapses those into a single [State] for one year:
// the effective faction and status labels, exile and magnate flags, the
// mutually exclusive [VisualGroup], and a raw anchor point on the social-map
// canvas.
//
// # Resolution rules
//
// Status and faction start from the first entry and switch to the second one
// once the year reaches the second entry's year. The second entry is ignored
// when it is missing or equals [NotInSource].
//
// Exile is evaluated in year bands:
//
//   - 1260 to 1265: Guelfs are exiled (after Montaperti).
//   - 1266 onward: Ghibellines are exiled (after Benevento).
//   - 1302 onward: White Guelfs are exiled as well, whatever their faction.
//
// The magnate flag only takes effect from 1293 (Ordinances of Justice).
//
// # Canvas
//
// Anchor positions live on a 260×90 abstract canvas. Lanes run horizontally
// by social class ([LaneNobleY], [LaneGrassiY], [LanePopoloY]); anchors run
// vertically by visual group ([AnchorGhibelline], [AnchorGuelf],
// [AnchorWhite], [AnchorBlack]); exiles are pushed to the edges
// ([AnchorExileGhibelline], [AnchorExileGuelf]).
//
// Everything in this package is pure: no I/O, no shared state, and results
// depend only on the arguments.
package family
