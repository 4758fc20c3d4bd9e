// Package catalog defines the published catalog model shared by the
// reconciliation engine, the renderer and the index builder: item kinds,
// catalog entries and the artifact layout on the publish target.
package catalog
