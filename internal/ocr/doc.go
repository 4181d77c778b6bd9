// Package ocr defines the text detection capability used by the extraction
// pipeline and its backends.
//
// A Detector recognizes text regions in a single frame image and reports
// them as Detections (text, bounding box, confidence). Two backends ship:
// Tesseract via gosseract for in-process recognition, and a bridge that
// drives an external PaddleOCR helper over exec and JSON. The synthesizer
// never touches a backend directly; it only sees Detections.
package ocr
