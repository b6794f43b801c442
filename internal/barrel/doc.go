// Package barrel generates aggregator ("barrel") files for a directory tree.
//
// Every visited directory receives one file that re-exports the directory's own
// source files and the aggregator of each subdirectory. The aggregator is named
// after the directory (widgets/widgets.dart) unless that name is already taken
// by ordinary source, in which case index.dart is used instead. Existing
// aggregators are only replaced after a Prompter agrees.
package barrel
