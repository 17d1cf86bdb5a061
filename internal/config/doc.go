// Package config provides configuration parsing for vbind projects.
//
// The configuration is stored in vbind.yaml (or vbind.json) at the project
// root. Every field is optional; a project without a config file gets the
// defaults.
//
// # Configuration File Structure
//
//	template: index.html
//	data: data.yaml            # or s3://bucket/key.json
//	el: "#app"
//	mode: broadcast            # or filtered
//	computed:
//	  greeting: "Hello {{ user.name }}"
//	server:
//	  addr: localhost:3000
//	  metrics: true
//	render:
//	  stripDirectives: true
//	  pretty: false
//	s3:
//	  region: us-east-1
//	  endpoint: http://localhost:9000
//	  pathStyle: true
//	logLevel: info
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Template:", cfg.TemplatePath())
package config
