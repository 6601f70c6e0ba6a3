package intermodal

// Package intermodal implements a self-describing data envelope format:
//
// - An Envelope pairs a Manifest (schema-identifying metadata) with opaque
//   Content, so heterogeneous producers and consumers can exchange typed
//   payloads over untyped channels
// - A stable error model via Issues (JSON Pointer, code, message)
// - YAML block codec (EncodeBlock/DecodeBlock) and JSON codec
//   (EncodeJSON/DecodeJSON) with deterministic, byte-stable output
// - StreamReader/StreamWriter for lazy iteration over `---`-separated streams
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - The codec never interprets labels or content; routing on manifest fields
//   belongs to the application.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  env, err := intermodal.DecodeBlock(ctx, block)
//  out, err := intermodal.EncodeBlock(ctx, env)
//
//  r := intermodal.NewStreamReader(f)
//  defer r.Close()
//  for {
//      block, err := r.Next()
//      // io.EOF terminates; decode each block independently
//  }
