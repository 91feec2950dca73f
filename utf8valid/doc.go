// Package utf8valid checks that untrusted byte sequences are well-formed
// UTF-8 before they are admitted as text.
//
// The acceptance set is exactly the Unicode scalar values U+0000..U+10FFFF
// excluding the surrogates U+D800..U+DFFF, each in its shortest form.
// Overlong encodings, surrogate code points, values above U+10FFFF,
// stray continuation bytes and truncated sequences are all rejected.
//
// Check reports where the first bad sequence starts. Validate is the
// boundary gate: it raises a trap instead of returning.
package utf8valid
