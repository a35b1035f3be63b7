/*
Package ports defines the driven ports (interfaces) for the key builder.

These interfaces decouple construction from where datasets come from and where
finished keys are kept.

# Key Interfaces

  - TraitLoader: supplies the ordered traits (file, memory, DSL).
  - ItemLoader: supplies the items to classify (file, Loam, memory, DSL).
  - KeyStore: persists built keys by ID (memory, file, Redis).
*/
package ports
