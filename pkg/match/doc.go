/*
Package match implements endpoint matching: partition name-set matching
(spec.md §4.4, glob semantics translated to regexp) and the writer/reader
evaluation cycle that runs qos.Compatible over every candidate pair and
installs/uninstalls matches.

Grounding: the evaluate-candidates / mutate-both-sides-on-success cycle is
adapted from cuemby-warren/pkg/scheduler/scheduler.go's schedule() /
scheduleService() shape — logger + timer + mutex around an evaluation pass
that ends by calling back into the owner to record the outcome. The
glob-to-regex translation table is transcribed directly from spec.md §4.4;
there is no glob library anywhere in the retrieval pack, so this package
builds the regexp.Regexp itself with stdlib regexp/strings (required stdlib
justification: no pack example wires a third-party glob/fnmatch library).
*/
package match
