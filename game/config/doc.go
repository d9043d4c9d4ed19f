// Package config loads, caches and saves Logjam levels.
//
// A level is a JSON file in the configs directory. Its layout is a stack of
// equally sized text layers; each character adds the markers its legend entry
// names to the cell beneath it, so a terrain layer can be overlaid with a
// layer of stumps and rocks:
//
//	{
//	  "name": "Tutorial",
//	  "description": "Push the log into the water",
//	  "layers": [
//	    ["####  ", "######"],
//	    ["..@...", "......"]
//	  ],
//	  "legend": {" ": "water", "#": "land", "@": "stump", "%": "rock", ".": ""},
//	  "start": {"x": 0, "y": 1}
//	}
//
// The legend may be omitted, in which case the default legend above is used.
// Every stump gets a log when a session starts.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadConfig("riverbank")
//	id, fallback := manager.GetDefault()
//	levels, err := manager.ListConfigs()
//
// Analyze reports marker counts, the land the player can walk from the start
// and logs nobody can reach, which the levels analyze command prints.
package config
