// Package domain models upper-air soundings and the emagram reference curves
// drawn beneath them.
//
// # Data Source
//
// Soundings come from the University of Wyoming upper-air archive
// (http://weather.uwyo.edu/upperair/sounding.html), TYPE=TEXT:LIST. The
// upstream fetcher strips the HTML wrapper, keeps the <pre> table, and
// publishes it with the station and observation time as a JSON envelope:
//
//	{"station": 47971, "year": 2020, "month": 8, "day": 27, "hour": 12, "body": "..."}
//
// # Table Layout
//
// The body opens with four lines that are never data:
//
//	-----------------------------------------------------------------------------
//	   PRES   HGHT   TEMP   DWPT   RELH   MIXR   DRCT   SKNT   THTA   THTE   THTV
//	    hPa     m      C      C      %    g/kg    deg   knot     K      K      K
//	-----------------------------------------------------------------------------
//
// Every following line is one level. Columns are fixed width, 7 characters
// each, in the order of [ObservationRecord]'s fields. Upper levels routinely
// leave columns blank (no humidity above the tropopause, no wind at some
// significant levels); a blank or unparseable column is a missing value, held
// as a nil pointer and encoded as JSON null, never as zero.
//
// # Reference Curves
//
// A [Baseline] carries the three curve families of an emagram: dry adiabats
// and saturated adiabats for potential temperatures 230 K..430 K, and
// constant mixing-ratio lines for nine vapour contents. Each point is
// encoded as a two-element array [temperature °C, pressure hPa]:
//
//	{"dryline": [[[-39.92, 1050], [-40.24, 1045], ...], ...], "moistline": ..., "mixingratioline": ...}
//
// # ID Generation
//
// Sounding IDs are the station followed by a truncated SHA-256 of
// station|YYYYMMDDHH, so replays of the same observation produce the same
// key downstream. See [generateID].
package domain
