// Package routing provides ordered route tables that map URI patterns to
// module/controller/action targets.
//
// A pattern is a slash-delimited path. Each segment is one of:
//
//   - a literal, compared case-insensitively ("shop", "item")
//   - a placeholder, ":name", matching exactly one segment
//   - a trailing variadic, "*name", matching zero or more remaining segments
//
// Captured segments are appended, left to right, to the target's params.
//
// # Matching
//
// Patterns are evaluated in insertion order and the first full match wins.
// There is no specificity ranking: "shop/:any" added before "shop/item"
// shadows it.
//
//	t := routing.NewTable()
//	t.Add("shop/item/:id", routing.Target{Module: "shop", Controller: "Item", Action: "View"})
//
//	target, ok := t.Match("/Shop//item/42/")
//	// ok == true, target.Params == []string{"42"}
//
// Malformed patterns are not validated; they simply never match.
//
// # Persistence
//
// [FileStore] reads and writes a table as an ordered YAML mapping:
//
//	shop/item/:id:
//	  module: shop
//	  controller: Item
//	  action: View
//
// Saves rewrite the whole file. The new contents are written to a temporary
// file in the same directory and renamed over the original, so readers never
// observe a partial file. Concurrent writers are not serialized and the last
// rename wins.
package routing
