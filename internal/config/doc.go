// Package config provides configuration parsing for the live-reload
// server.
//
// The configuration is stored in htmldiff.json at the project root and
// covers what to watch, how the server binds, and matcher tuning.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-site",
//	  "root": ".",
//	  "watch": ["app", "public"],
//	  "ignore": ["node_modules", ".git"],
//	  "debounceMs": 100,
//	  "server": {
//	    "port": 3977,
//	    "host": "localhost",
//	    "openBrowser": true
//	  },
//	  "matching": {
//	    "similarityThreshold": 0.5,
//	    "minHeight": 0
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics"
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
//	fmt.Println("Port:", cfg.Server.Port)
package config
