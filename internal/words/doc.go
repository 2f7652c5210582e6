// Package words normalizes French words for identity purposes and splits
// article text into tappable tokens while keeping the surface form.
package words
