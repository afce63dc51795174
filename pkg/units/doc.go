// Package units converts numeric parameter values between display units
// and the SI representation the store keeps internally.
//
// A unit expression is a sequence of unit tokens joined by '.'
// (multiplication) and '/' (division). Every token after the first '/'
// is a divisor, so "m/s/s" reads as metres per second squared. A '2'
// directly after a token squares it: "m2" is square metres, "N.m" is a
// newton-metre.
//
//	si := units.ToSI("rpm", 4000)   // 418.879 rad/s
//	rpm := units.FromSI("rpm", si)  // 4000
//
// Unknown tokens (and the SI base tokens) have a coefficient of 1, so
// values with unrecognized units pass through unchanged.
package units
