// Package sceneio converts placed scenes into portable documents and back.
//
// # Overview
//
// A [Document] is the serializable result of one run: the environment and
// every area with their committed objects, the layout tiles, and the run
// metadata needed to reproduce it (seed and config hash). Documents are
// what the pipeline caches, what the store persists and what the HTTP API
// returns.
//
// # JSON Format
//
//	{
//	  "run_id": "4f0c...",
//	  "seed": 42,
//	  "config_hash": "9b1d...",
//	  "created_at": "2025-01-02T15:04:05Z",
//	  "environment": {
//	    "name": "environment",
//	    "kind": "environment",
//	    "origin": {"x": 0, "y": 0},
//	    "size": {"x": 10, "y": 6, "z": 2},
//	    "bounds": {"min": {"x": -10, "y": -6}, "max": {"x": 10, "y": 6}},
//	    "objects": [
//	      {"id": "Tree_0", "name": "Tree", "class": "tree",
//	       "position": {"x": 1.5, "y": -2, "z": 1.5}, ...}
//	    ]
//	  },
//	  "areas": [...],
//	  "tiles": [{"top_left": {...}, "bottom_right": {...}}]
//	}
//
// Sizes are half extents and rotations are in degrees.
//
// # Encodings
//
// [WriteJSON] and [ReadJSON] handle JSON, [EncodeMsgpack] and
// [DecodeMsgpack] a compact binary form of the same document, and
// [WriteMJCF] emits an MJCF scene description (one body per object, one geom
// per blueprint part) that a MuJoCo model can include directly. MJCF output
// is write-only.
//
// Use [ImportJSON] and [ExportJSON] for file paths:
//
//	doc, err := sceneio.ImportJSON("scene.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package sceneio
