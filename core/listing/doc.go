// Package listing is the client for the remote resource-listing service.
//
// The service returns flat pages of resources; a resource is either a
// playable file or a folder whose children are listed by passing the folder
// id. Records without an id are dropped while decoding, so callers only ever
// see publishable items.
//
// # Usage
//
//	client, err := listing.New(cfg)
//	items, err := client.List(ctx, "")          // top level
//	children, err := client.List(ctx, folderID) // one folder
package listing
