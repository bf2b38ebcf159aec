// Package dag holds a small directed graph over string identifiers. The
// description loader uses it to record which definitions instantiate which,
// and rejects descriptions whose instantiation graph contains a cycle, since
// elaborating such a definition would never terminate.
package dag
