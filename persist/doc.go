// Package persist saves and loads networks in the lexnet binary format.
//
// Layout
//
//	format=lexnet/1            text header, one key=value per line
//	domain=log
//	counts=false
//	recurrent=true
//	input=<table name>
//	output=<table name>
//	shared=<input and output are one table>
//	meta.<key>=<value>         user metadata, sorted by key
//	%%                         end of header
//
//	int32 nodeCount, int32 rootId (always 0)
//	per node, in breadth-first order from the root:
//	  int16 edgeCount
//	  per edge:    int32 edgeId, float32 weight, int16 input, int16 destCount
//	  per context: float32 weight, int16 output, int32 destId
//
// All binary fields are little-endian. destId -1 marks a pending node; it is
// encoded at its breadth-first position like any other node.
//
// Both directions use explicit FIFO worklists, so graph depth is bounded by
// memory rather than by the call stack. Weights are stored as float32 and
// survive a round trip bit for bit.
package persist
