// Package dispatch implements the background entry point invoked when a
// trigger fires, with no guarantee the process was already running.
//
// Dispatch re-establishes just enough state to run the full briefing
// pipeline and fail audibly: voice output first, then the trigger store
// connection (fatal on failure), then the briefing itself, and finally the
// fired alarm's resolution. Run performs the complete bootstrap from the
// settings file alone.
package dispatch
