// Package repository hosts the storage backends: the in-memory store used by
// tests and local runs, the SQLite metadata store, and the Milvus vector
// index. Every backend implements the contracts in pkg/domain/interfaces and
// runs against the shared conformance suite in this directory.
package repository
