/*
Package docdb implements a schemaless document store with a small query
engine, on top of a hierarchical file-like store (plain files, Bolt, or
memory).

We implement:

1. Documents, string-keyed maps of dynamically typed values (Value), stored
at slash-separated paths and grouped into folders.

2. Queries, conjunctions of per-key clauses (Clause) evaluated against every
document nested under a folder, with a result limit and column projection.

3. Three retrieval surfaces over one evaluation: eager (DB.Query), lazy pull
(DB.QueryIterator) and push with backpressure (DB.QueryStream).

# Technical Details

**Values.**
Value is a closed sum of null, bool, int, float, string, array and object.
The zero Value is absent, which is how a missing key reads. Values of
different kinds never compare equal, and only ints, floats and strings are
ordered (ints and floats are not ordered relative to each other).

**Clauses.**
Ordering clauses compare with the query value as the receiver:
isGreaterThan(v) passes when neither x == v nor x < v holds for the document
value x. A missing or differently typed field therefore passes isGreaterThan
and isGreaterThanOrEqualTo and fails isLessThan and isLessThanOrEqualTo.

**Enumeration.**
A query walks the folder recursively in pre-order, names sorted within each
folder, listing each subfolder only when it is reached. Documents that can't
be read or decoded are skipped and never abort the scan.

**Encoding.**
Documents are stored as JSON objects or as MsgPack maps. JSON numbers
without a fraction or exponent decode as ints, everything else as floats.
*/
package docdb
