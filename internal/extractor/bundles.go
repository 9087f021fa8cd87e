package extractor

import (
	"regexp"

	"mmony/momo-csv/internal/models"
)

var (
	internetAmountRe = regexp.MustCompile(`^Yello!Umaze kugura (\d[\d,]*)(?:Rwf|FRW)`)
	internetSizeRe   = regexp.MustCompile(`(?:Rwf|FRW)\((\d+)(GB|MB)\)`)

	voiceAmountRe  = regexp.MustCompile(`^Yello!Umaze kugura (\d[\d,]*)Frw=`)
	voiceMinutesRe = regexp.MustCompile(`Frw=(\d+)Mins`)
	voiceSMSRe     = regexp.MustCompile(`Mins\+(\d+)SMS`)
)

// Bundle bodies carry no transaction time; OccurredAt stays zero.

func extractInternetBundle(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.InternetBundlePurchase{
		Amount: s.amount(internetAmountRe, fieldAmount),
	}
	if m := s.find(internetSizeRe, fieldBundleSize); m != nil {
		tx.BundleSize = s.integer(m[1], fieldBundleSize)
		tx.BundleUnit = m[2]
	}
	if !s.ok() {
		return nil, s.err(models.CategoryInternetBundlePurchase)
	}
	return tx, nil
}

func extractVoiceBundle(body string) (models.Transaction, error) {
	s := newScan(body)
	tx := models.VoiceBundlePurchase{
		Amount: s.amount(voiceAmountRe, fieldAmount),
	}
	if m := s.find(voiceMinutesRe, fieldMinutes); m != nil {
		tx.Minutes = s.integer(m[1], fieldMinutes)
	}
	if m := s.find(voiceSMSRe, fieldSMSCount); m != nil {
		tx.SMSCount = s.integer(m[1], fieldSMSCount)
	}
	if !s.ok() {
		return nil, s.err(models.CategoryVoiceBundlePurchase)
	}
	return tx, nil
}
