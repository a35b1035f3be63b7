/*
Package schema validates trait definitions and items before a key is built.

The builder stops at the first inconsistency it meets. Validation instead walks
the whole dataset and reports every problem at once as an *AggregateError of
*ValidationError values, which is what the CLI "validate" command prints.

Checks:
  - every trait has a name and two non-empty, distinct labels
  - trait names are unique
  - every item has a genus
  - label observations match one of their trait's labels

Items may omit traits and may carry observations for traits that are not in
the order; neither is an error.
*/
package schema
