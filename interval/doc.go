/*Package interval implements the sweep-line operations this pipeline runs on
  per-chromosome sets of genomic intervals: merging a sorted interval list
  into a maximal disjoint set, partitioning coding intervals against
  annotation coverage, and counting point mutations against a disjoint
  interval set.
  Coordinates are 0-based and closed on both ends ([start, end] both
  inclusive), matching the UCSC block expansion used by the reference
  preparation step.  All operations assume input sorted by (chromosome,
  start); violations are reported as errors rather than silently
  mis-processed.
*/
package interval
