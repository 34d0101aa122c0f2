// Package config provides configuration parsing for Lumen projects.
//
// The configuration is stored in lumen.json at the project root. This
// package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "editor",
//	  "window": {
//	    "title": "Editor",
//	    "width": 1024,
//	    "height": 768,
//	    "transparent": false
//	  },
//	  "assets": {
//	    "dir": "assets",
//	    "manifest": "assets/manifest.json"
//	  },
//	  "devtools": {
//	    "enabled": true,
//	    "port": 3939,
//	    "watch": ["assets", "styles"]
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools port:", cfg.Devtools.Port)
package config
