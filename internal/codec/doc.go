// Package codec converts records to and from the ascent CSV snapshot format.
//
// # Row Format
//
//   - One record per line, each line terminated by a single '\n'
//   - Fields in a fixed order per record kind, separated by a single ','
//   - An absent optional value is written as the literal token null
//   - A present empty string is written as an empty field
//   - No quoting: values containing ',', '\r' or '\n', or equal to "null",
//     are rejected at encode time with ErrUnencodable
//
// Reads are positional. A row whose field count does not match the kind, a
// null in a required field, an unknown enum value or a non-integer rank makes
// the whole file fail with a *MalformedRowError.
//
// For every encodable record list R, Unmarshal(Marshal(R)) equals R field for
// field.
package codec
