/*
Package cache implements the writer and reader history caches: the
content-addressed, sequence-numbered change stores that enforce HISTORY,
RESOURCE_LIMITS, LIFESPAN, DEADLINE, OWNERSHIP, DESTINATION_ORDER,
TIME_BASED_FILTER, and DURABILITY (spec.md §4.2-§4.3), and expose the
sample/view/instance-state machine read/take queries.

Grounding: CacheChange's field shape and the ChangeKind enum are
transcribed from original_source/src/cache.rs; the per-instance ordered
sample list and the Mutex-guarded map-of-changes idiom are adapted from
the same file's ReaderHistoryCache. The richer instance-state machine,
ownership arbitration, resource-limit rejection reasons, and the
read/take generation-rank bookkeeping have no original_source
counterpart (cache.rs is a much thinner skeleton) and are built directly
from spec.md §4.2/§4.3, in the same plain-struct-plus-mutex idiom the
teacher uses throughout pkg/storage for its in-memory state (the
interface/impl split of pkg/storage/store.go + boltdb.go is not needed
here — nothing in spec.md calls for history-cache persistence beyond
process lifetime, which is also an explicit spec.md Non-goal).
*/
package cache
