/*
Package fieldpath provides a structured representation of the location of a
value inside a decoded instruction, used to report exactly which nested field
failed to decode.

The canonical format is a dot-separated sequence of field names where list and
array elements are addressed with bracketed indices, e.g.
`route_plan[0].swap.x_to_y` or `matrix[1][2]`.
*/
package fieldpath
