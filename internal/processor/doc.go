// Package processor wires the lecteur components together. It builds the
// catalog, the state database, the flashcard deck, the translator and the
// speech engine from the command line flags and configuration, runs the
// CLI actions and launches the GUI when no action is requested.
package processor
