// Package geo prepares family data for the geographic map of Florence.
//
// It has no map widget of its own. It decides which families are visible
// ([Visible]), how their pins are coloured ([Pins], [GuildColor]), how the
// sidebar list is grouped ([GroupBySesto]) and which relationship lines to
// draw between houses ([Connections]). Renderers take the results as plain
// values.
//
// Pin visibility uses a wider default lifetime (1200 to 1900) than
// connections (0 to 9999): a family with no recorded dates gets a pin for the
// whole chronicle and its relationships for any year.
package geo
