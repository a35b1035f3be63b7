/*
Package domain contains the core models of the keysort dichotomous key.

It defines the entities the builder works with and the frozen Key it produces.
The package is kept pure: no I/O, no persistence, no presentation.

# Key Entities

  - Trait: A yes/no question with a display label for each outcome.
  - Observation: What an Item records for a trait (a raw label or a direct outcome).
  - Item: The thing being identified, with its trait observations.
  - Node: A point in the key. Option nodes ask a trait question, Leaf nodes hold one Item.
  - Key: The arena of nodes, addressed by integer NodeID, rooted at 0.
  - Identification: The result of walking a Key with a set of answers.
*/
package domain
