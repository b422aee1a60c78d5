// Package probe builds the probe document fed to the TeX engine. A single
// engine run answers every queried macro: the document loads the requested
// class and packages, then issues one \show per macro in query order.
//
// Types:
//   - Config, Package, Context, Builder
//
// Functions:
//   - NewBuilder(engine) → *Builder; (*Builder).Build() → Config
//   - Render(Config) → string
//     Pure and deterministic; the output is written verbatim to the
//     engine's stdin.
//   - ParsePackage("[opts]name") → Package
package probe
