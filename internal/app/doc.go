// Package app contains the core application logic: loading a description,
// elaborating the top subsystem, synthesizing its interconnects, and writing
// the resulting report or file listing. It is decoupled from any specific
// entrypoint like a CLI.
package app
