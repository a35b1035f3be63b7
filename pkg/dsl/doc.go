/*
Package dsl provides a fluent Go API for declaring a dataset in code.

It is the programmatic alternative to trait and item files, handy in tests and
in programs that generate their datasets.

Example usage:

	b := dsl.New()

	b.Trait("arrangement", "opposite", "alternate").
		Trait("leaf_type", "compound", "simple")

	b.Item("Acer", "rubrum").
		Has("arrangement", "opposite").
		Has("leaf_type", "simple")

	b.Item("Fraxinus", "americana").
		Has("arrangement", "opposite").
		Is("leaf_type", true)

	// The result satisfies ports.TraitLoader and ports.ItemLoader.
	loader, err := b.Build()
*/
package dsl
