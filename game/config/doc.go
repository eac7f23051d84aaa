// Package config provides theme management for the faction merge game.
//
// A theme only changes how the game looks and what it says: the glyph each
// tile value is drawn with, per faction, and the welcome, victory, defeat
// and no-change messages. Grid size, spawn odds and the winning value are
// fixed by the engine.
//
// Configuration Format:
//
//	{
//	  "name": "classic",
//	  "description": "Stars and rainbows against ghosts and skulls",
//	  "glyphs": {
//	    "benign":  ["🌟", "🌈", "🦄", "🍀", "🌺", "🌞"],
//	    "hostile": ["👾", "👻", "💀", "🕷️", "🦂", "🦹"]
//	  },
//	  "messages": {
//	    "welcome": "Merge benign tiles up to 128 to win!",
//	    "victory": "You Win!",
//	    "defeat": "Game Over",
//	    "no_change": "Nothing moved"
//	  }
//	}
//
// Glyph tables map values 2, 4, 8, 16, 32 and 64 in order. Larger tiles
// are drawn as their number.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	theme, err := manager.LoadConfig("ocean")
//	defaultTheme := manager.GetDefault()
//	themes, err := manager.ListConfigs()
//
// The classic theme is built in and is served even when configs/ has no
// classic.json.
package config
