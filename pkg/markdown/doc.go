/*
Package markdown segments a document into ordered, addressable review items.

Segmentation is deterministic: identical input always yields an identical
item sequence with identical IDs. The tokenizer is an implementation detail
behind Segment; callers depend only on the item contract in pkg/domain.
*/
package markdown
