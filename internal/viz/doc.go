// Package viz renders generated samples and model predictions for eyeball
// checks: box overlays, class labels, and contact-sheet montages.
//
// Overlays are drawn on an upscaled copy of the sample canvas (nearest
// neighbor, so the source pixels stay crisp) because the native canvas is
// too small for readable labels. Ground-truth boxes use the class fill
// color; predicted boxes are drawn in white.
package viz
