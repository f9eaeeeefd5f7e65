// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package trace holds the dynamically captured execution trace of a model's
// forward pass, as produced by a tracer: one node per executed operation and
// one edge per tensor handed from an operation's output to another's input.
//
// # Sources
//
// A trace document is read from a file (`.json`, `.yaml`, `.yml`) with Load,
// from bytes with Decode, or requested from a running tracer over socket.io
// with SocketIOSource. Every source validates the document before returning it.
//
// # Document shape
//
//	{
//	  "nodes": [
//	    {"id": 0, "operator_name": "nncf_model_input", "scope": "Net", "call_order": 0},
//	    {"id": 1, "operator_name": "conv2d", "module_id": 3, "scope": "Net/Conv2d[conv1]",
//	     "call_order": 0, "layer_attributes": {"kind": "convolution", "in_channels": 3, ...}}
//	  ],
//	  "edges": [
//	    {"from": 0, "to": 1, "shape": [1, 3, 32, 32], "dtype": "float", "input_port": 0, "output_port": 0}
//	  ],
//	  "inputs": [{"dtype": "float", "shape": [1, 3, 32, 32]}]
//	}
package trace
