package pagemap

/*

# Page-bound slotted maps

This package binds the slotted array primitives to fixed-size pooled
pages, and carries the orchestration concerns the primitives deliberately
avoid: draining a page into an external write batch, checkpoint manifests
for pages handed to another storage tier, and logging.

A Map caches nothing: every operation constructs a fresh view over the
page bytes, so the page contents are the single source of truth and a
page can be shared between a Map and any other reader of the same bytes
(subject to the single-writer rule — the page is the unit of mutual
exclusion).

*/
