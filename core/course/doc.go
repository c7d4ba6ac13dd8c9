// Package course holds the course authoring domain: the Course → Module → Video
// entity tree, the in-memory draft store used during an editing session, and the
// normalization applied to trees loaded from the database.
//
// # Entity Model
//
// A Course owns an ordered list of Modules and each Module owns an ordered list of
// Videos. Entities that have not been persisted yet carry IsNew=true and a transient
// uuid token in ID; persisted entities carry the database id.
//
// # Draft Store
//
// Draft holds the single mutable working copy of a tree. Every mutation replaces the
// draft's root with an updated copy and returns it, so values handed out earlier are
// never modified behind the caller's back. Mutations never fail: unknown ids are no-ops.
//
// # Normalization
//
// Normalize sorts modules and videos by OrderIndex (stable) and marks every node as
// existing. The database gives no ordering guarantee on its own, so every load path
// goes through it.
//
// # Usage
//
//	d := course.NewDraft(tree)
//	mod := d.AddModule()
//	d.UpdateModule(mod, course.ModuleTitle, "Getting started")
//	vid := d.AddVideo(mod)
//	d.UpdateVideo(mod, vid, course.VideoSourceURL, "https://youtu.be/abc")
package course
