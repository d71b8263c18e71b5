// Package api provides the HTTP API adapter.
//
// Routes:
//
//	GET    /                                health check
//	POST   /upload                          run an extraction on a multipart "file"
//	GET    /extractions                     extraction history, newest first
//	GET    /extractions/{id}                one extraction
//	DELETE /extractions/{id}                delete an extraction and its outputs
//	GET    /extractions/{id}/archive        zip of every output file
//	GET    /extractions/{id}/files/{name}   download one output file
//
// Responses are JSON; errors use {"error": "..."}.
package api
