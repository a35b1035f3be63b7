/*
Package keysort builds dichotomous identification keys.

A dichotomous key identifies an item by asking yes/no questions about its
traits. Given a collection of items and an ordered list of traits, keysort
splits the items layer by layer, one trait per layer, into a binary tree whose
leaves each hold exactly one item.

# Concept

A Trait names a characteristic and the two labels that stand for its outcomes
(e.g. arrangement: opposite / alternate). An Item records an observation per
trait, either as a label or directly as an outcome. The builder asks the first
trait at the root, the second at every node of the next layer, and so on.
Nodes whose items all lack the current trait are deferred to the next trait.
When the traits run out before every item is alone, the remaining group stays
in the key as an unresolved node (or fails the build in strict mode).

# Usage

For a one-off build from memory use Build and Render:

	key, err := keysort.Build(items, traits)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(keysort.Render(key))

For datasets on disk, caching and observability use an Engine:

	eng, err := keysort.New(
		keysort.WithDataset(dataset.NewFileLoader("traits.json", "items.json")),
		keysort.WithStore(memory.NewStore()),
		keysort.WithStrictResolution(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	res, err := eng.Build(ctx)
*/
package keysort
