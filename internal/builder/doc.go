/*
Package builder turns a declarative network definition into the canonical,
topologically ordered list of layer nodes.

A Definition names three kinds of factories: one that creates the input layer,
an ordered list of hidden-layer factories, and one that creates the output
layer. Hidden layers may be authored in two styles:

 1. Direct chaining: every entry receives the previous layer and returns one
    new layer wired to it. The builder threads each return value into the
    next call.

 2. Nested composition: a single entry builds an arbitrary chain of nested
    constructor calls around the layer it receives and returns the last one.
    The builder walks input references backward from that layer to recover
    the forward order.

Both styles go through the same placement routine in package dag, so a nested
expression and its step-by-step equivalent produce identical orders. Lists
that mix the two styles are rejected with an UnsupportedCompositionError.
*/
package builder
