// Package catalog maps dataset names to the places their data is loaded from and saved to.
package catalog
