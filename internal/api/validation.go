/**
 * @description
 * This file contains the request payload validation rules. Validation runs
 * before any business logic; the first failure message doubles as the
 * response's top-level message, with the full list in the errors array.
 */

package api

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tikkieiran/backend/internal/domain"
)

// runeLen counts characters, not bytes; Persian input is multi-byte.
func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

var (
	phonePattern      = regexp.MustCompile(`^09\d{9}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{10}$`)
	cardPattern       = regexp.MustCompile(`^\d{16}$`)
	cvv2Pattern       = regexp.MustCompile(`^\d{3,4}$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	codePattern       = regexp.MustCompile(`^\d{5}$`)
)

func stripCardNumber(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(clean, "-", "")
}

func validatePhone(phone string) string {
	if !phonePattern.MatchString(phone) {
		return "شماره موبایل باید با ۰۹ شروع شود و ۱۱ رقم باشد"
	}
	return ""
}

func validateAmount(amount int64) string {
	if amount <= 0 {
		return "مبلغ باید بزرگتر از صفر باشد"
	}
	if amount > domain.MaxAmount {
		return "مبلغ نمی‌تواند بیشتر از ۱۰۰ میلیون ریال باشد"
	}
	return ""
}

func validateRegister(p domain.RegisterPayload) []string {
	var errs []string
	if msg := validatePhone(p.Phone); msg != "" {
		errs = append(errs, msg)
	}
	if !nationalIDPattern.MatchString(p.NationalID) {
		errs = append(errs, "کد ملی باید ۱۰ رقم باشد")
	}
	if runeLen(p.FirstName) < 2 {
		errs = append(errs, "نام باید حداقل ۲ کاراکتر باشد")
	}
	if runeLen(p.LastName) < 2 {
		errs = append(errs, "نام خانوادگی باید حداقل ۲ کاراکتر باشد")
	}
	if utf8.RuneCountInString(p.Password) < 6 {
		errs = append(errs, "رمز عبور باید حداقل ۶ کاراکتر باشد")
	}
	return errs
}

func validateLogin(p domain.LoginPayload) []string {
	var errs []string
	if msg := validatePhone(p.Phone); msg != "" {
		errs = append(errs, msg)
	}
	if p.Password == "" {
		errs = append(errs, "رمز عبور الزامی است")
	}
	return errs
}

func validateSendCode(p domain.SendCodePayload) []string {
	if msg := validatePhone(p.Phone); msg != "" {
		return []string{msg}
	}
	return nil
}

func validateVerifyCode(p domain.VerifyCodePayload) []string {
	var errs []string
	if msg := validatePhone(p.Phone); msg != "" {
		errs = append(errs, msg)
	}
	if !codePattern.MatchString(p.Code) {
		errs = append(errs, "کد تایید باید ۵ رقم باشد")
	}
	return errs
}

func validateUpdateProfile(p domain.UpdateProfilePayload) []string {
	var errs []string
	if runeLen(p.FirstName) < 2 {
		errs = append(errs, "نام باید حداقل ۲ کاراکتر باشد")
	}
	if runeLen(p.LastName) < 2 {
		errs = append(errs, "نام خانوادگی باید حداقل ۲ کاراکتر باشد")
	}
	return errs
}

func validateAddCard(p domain.AddCardPayload) []string {
	var errs []string
	if !cardPattern.MatchString(stripCardNumber(p.CardNumber)) {
		errs = append(errs, "شماره کارت باید ۱۶ رقم باشد")
	}
	if !cvv2Pattern.MatchString(p.CVV2) {
		errs = append(errs, "CVV2 باید ۳ یا ۴ رقم باشد")
	}
	if !expiryPattern.MatchString(p.Expiry) {
		errs = append(errs, "تاریخ انقضا باید به صورت MM/YY باشد")
	}
	return errs
}

func validateCreatePayment(p domain.CreatePaymentPayload) []string {
	var errs []string
	if !cardPattern.MatchString(stripCardNumber(p.ReceiverCardNumber)) {
		errs = append(errs, "شماره کارت مقصد باید ۱۶ رقم باشد")
	}
	if msg := validateAmount(p.Amount); msg != "" {
		errs = append(errs, msg)
	}
	if runeLen(p.Description) < 2 {
		errs = append(errs, "توضیحات باید حداقل ۲ کاراکتر باشد")
	}
	return errs
}

func validateCreatePaymentRequest(p domain.CreatePaymentRequestPayload) []string {
	var errs []string
	if msg := validateAmount(p.Amount); msg != "" {
		errs = append(errs, msg)
	}
	if runeLen(p.Description) < 2 {
		errs = append(errs, "توضیحات باید حداقل ۲ کاراکتر باشد")
	}
	if p.ExpiryDays < 0 || p.ExpiryDays > 30 {
		errs = append(errs, "مهلت درخواست باید بین ۱ تا ۳۰ روز باشد")
	}
	return errs
}
