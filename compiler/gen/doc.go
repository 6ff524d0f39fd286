// Package gen turns a schema into fluent builder sources for several
// target languages.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Schema (compiler/load: .yaml, .cue, .graphql)
//	        ↓
//	   schema.Schema (validated, references resolved)
//	        ↓
//	   plan.Compiler + plan.Policy (one Plan per struct)
//	        ↓
//	   Renderer per target (go, java, python, typescript, php)
//	        ↓
//	   Result (artifacts + diagnostics)
//	        ↓
//	   Writer (formatting, manifest, stale file removal)
//
// Structs are compiled in parallel, then every (struct, target) pair is
// rendered in parallel. Worker count is bounded by Config.Workers. Output
// order only depends on the schema and the target order, never on
// scheduling.
//
// # Key Types
//
//   - Config: global configuration assembled with functional options
//   - Renderer: a target language, registered in a Registry
//   - View: the target-independent data renderers execute templates with
//   - Pipeline: compiles and renders a schema into a Result
//   - Writer: writes a Result to disk incrementally
//
// # Error Handling
//
// A schema error (cycles, duplicate names) aborts the run before anything
// is emitted. Every other failure only excludes the affected output and is
// reported as a Diagnostic:
//
//   - a struct whose field kind cannot be compiled is excluded from every target
//   - a struct a target cannot express (UnsupportedTargetError) is excluded
//     from that target only
//
// Example:
//
//	res, err := p.Run(ctx, s)
//	if err != nil {
//	    return err // schema error or cancellation
//	}
//	for _, d := range res.Errors() {
//	    log.Println(d)
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithOutput("./generated"),
//	    gen.WithTargets("go", "typescript"),
//	    gen.WithBuildMode(gen.BuildShared),
//	)
//
// The same settings can be read from a YAML file with LoadConfig, where
// flattening rules are written as Struct.field selectors:
//
//	output: generated
//	build: copy
//	flattening:
//	  mode: auto
//	  flatten:
//	    - field: Dashboard.refresh
//	      fields: [valString]
//	  delegate:
//	    - Dashboard.time
//	rename:
//	  - field: Dashboard.singleLink
//	    name: link
//	options:
//	  java:
//	    package: com.acme.dashboards
//
// # Generated Output
//
//	{output}/
//	├── .fluentgen.manifest
//	├── go/{struct}_builder.go
//	├── java/{package path}/{Struct}Builder.java
//	├── python/builders/{struct}.py
//	├── typescript/{package}/{struct}Builder.gen.ts
//	└── php/src/Builders/{Struct}Builder.php
package gen
