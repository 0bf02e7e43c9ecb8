package main

// Exit codes shared by all citegraph commands.
const (
	ExitSuccess     = 0   // Success
	ExitError       = 1   // General error (invalid arguments, runtime failure)
	ExitConfigError = 2   // Configuration error (bad config file, flags, or missing API key)
	ExitDataError   = 3   // Data error (bad seed file, missing checkpoint, ranking conflict)
	ExitQuota       = 4   // Retrieval quota exhausted, state checkpointed
	ExitInterrupted = 130 // Interrupted by signal, state checkpointed
)
